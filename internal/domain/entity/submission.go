package entity

import (
	"github.com/google/uuid"
)

// SubmissionStatus is the grading state of a submission. Intake only ever
// creates submissions in StatusQueued; every other state is written by the
// grading worker through the shared store.
type SubmissionStatus string

const (
	StatusQueued        SubmissionStatus = "queued"
	StatusRunning       SubmissionStatus = "running"
	StatusAccepted      SubmissionStatus = "accepted"
	StatusWrongAnswer   SubmissionStatus = "wrong_answer"
	StatusRuntimeError  SubmissionStatus = "runtime_error"
	StatusCompileError  SubmissionStatus = "compile_error"
	StatusInternalError SubmissionStatus = "internal_error"
)

// Submission is one code submission against a problem. After creation the
// id, owner, problem, language, code and creation time never change; status
// and run metrics belong to the grading worker.
type Submission struct {
	ID            string           // Opaque id of the form "sb_<hex>"; primary key.
	UserID        uuid.UUID        // Owner of the submission.
	ProblemID     string           // Problem the code was submitted against.
	Status        SubmissionStatus // Current grading state.
	Language      string           // Language the code was submitted in, e.g. "c", "cpp23".
	Code          string           // The submitted source code.
	CodeSizeByte  int64            // UTF-8 encoded length of Code in bytes.
	RunTimeMs     *int64           // Measured run time; nil until graded.
	RunMemoryByte *int64           // Measured peak memory; nil until graded.
	CreatedAt     int64            // Creation time, epoch seconds.
	UpdatedAt     int64            // Last modification time, epoch seconds.
}
