package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartReportConsumer connects to the given RabbitMQ broker, declares the
// report.submitted queue (durable), and starts consuming messages. Each
// event is appended to logs/report.log in a single-line, human-friendly
// format. The function runs a reconnect loop with capped backoff;
// processing errors are logged and the offending message rejected so the
// server keeps operating.
func StartReportConsumer(url string) error {
	url = brokerURL(url)

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("report-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("report-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("report-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(reportQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(reportQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("report-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev ReportSubmittedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "report.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	bucket := "unconfirmed"
	if ev.Confirmed {
		bucket = "confirmed"
	}
	files := "[]"
	if len(ev.Files) > 0 {
		files = fmt.Sprintf("[%s]", strings.Join(ev.Files, ","))
	}

	line := fmt.Sprintf("[%s] Report submitted | report_id=%s | user_id=%s | bucket=%s | vote=%s | qsn_answered=%t | location=%q | pincode=%s | files=%s\n",
		ev.SubmittedAt, ev.ReportID, ev.UserID, bucket, ev.Vote, ev.QsnAnswered, ev.Location, ev.Pincode, files)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
