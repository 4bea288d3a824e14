package model

import "time"

// Profile represents a row in the `profiles` table. One profile exists per
// auth user, created at registration and keyed by the user's uuid. The
// EmailConfirmed flag is flipped by the external email-confirmation flow;
// the application only ever reads it, and it decides whether report and
// questionnaire writes land in the confirmed or unconfirmed tables.
//
// Fields:
//  ID             – auth user uuid (profiles.id, primary key).
//  Name           – display name captured at registration.
//  Email          – email address, mirrors the auth user.
//  Pincode        – home-area postal code (nullable).
//  EmailConfirmed – whether the confirmation flow completed.
//  CreatedAt      – timestamp of creation.
type Profile struct {
	ID             string     // profiles.id
	Name           string     // profiles.name
	Email          string     // profiles.email
	Pincode        *string    // profiles.pincode (nullable)
	EmailConfirmed bool       // profiles.email_confirmed
	CreatedAt      time.Time  // profiles.created_at
}
