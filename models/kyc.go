package models

import "time"

// KYCSubmission is a talent's identity-verification request. Document
// references point at encrypted uploads in the storage service, not raw files.
type KYCSubmission struct {
	ID           string    `bson:"id" json:"id"`
	TalentID     string    `bson:"talent_id" json:"talentId"`
	DocumentType string    `bson:"document_type" json:"documentType"` // e.g. "national_id", "passport"
	DocumentRefs []string  `bson:"document_refs" json:"documentRefs"`
	Status       string    `bson:"status" json:"status"` // PENDING, APPROVED, REJECTED
	Reason       string    `bson:"reason,omitempty" json:"reason,omitempty"`
	ReviewedBy   string    `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
