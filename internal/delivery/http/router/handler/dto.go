package handler

import (
	"time"

	"oj/internal/domain/entity"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Slug:      user.Slug,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// SubmissionResponse is the caller's view of a submission.
type SubmissionResponse struct {
	ID            string `json:"id"`
	ProblemID     string `json:"problemId"`
	Status        string `json:"status"`
	Language      string `json:"language"`
	CodeSizeByte  int64  `json:"codeSizeByte"`
	RunTimeMs     *int64 `json:"runTimeMs"`
	RunMemoryByte *int64 `json:"runMemoryByte"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
}

func toSubmissionResponse(submission *entity.Submission) *SubmissionResponse {
	return &SubmissionResponse{
		ID:            submission.ID,
		ProblemID:     submission.ProblemID,
		Status:        string(submission.Status),
		Language:      submission.Language,
		CodeSizeByte:  submission.CodeSizeByte,
		RunTimeMs:     submission.RunTimeMs,
		RunMemoryByte: submission.RunMemoryByte,
		CreatedAt:     submission.CreatedAt,
		UpdatedAt:     submission.UpdatedAt,
	}
}
