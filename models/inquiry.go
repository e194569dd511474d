package models

import "time"

// InquiryStatus enumerates the read/reply states of an inquiry.
type InquiryStatus string

const (
	InquiryUnread  InquiryStatus = "Unread"
	InquiryRead    InquiryStatus = "Read"
	InquiryReplied InquiryStatus = "Replied"
)

// Inquiry is a message submitted through the public contact form.
type Inquiry struct {
	ID            string        `bson:"id" json:"id"`
	FullName      string        `bson:"full_name" json:"fullName"`
	Email         string        `bson:"email" json:"email"`
	Phone         string        `bson:"phone" json:"phone"`
	Subject       string        `bson:"subject" json:"subject"`
	Message       string        `bson:"message" json:"message"`
	Status        InquiryStatus `bson:"status" json:"status"`
	IsArchived    bool          `bson:"is_archived" json:"isArchived"`
	ArchiveReason string        `bson:"archive_reason,omitempty" json:"archiveReason,omitempty"`
	ArchivedAt    *time.Time    `bson:"archived_at,omitempty" json:"archivedAt,omitempty"`
	ArchivedBy    string        `bson:"archived_by,omitempty" json:"archivedBy,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updatedAt"`
}

// InquiryStats is the aggregate breakdown shown on the dashboard.
type InquiryStats struct {
	Total    int64            `json:"total"`
	Unread   int64            `json:"unread"`
	ByStatus map[string]int64 `json:"byStatus"`
}
