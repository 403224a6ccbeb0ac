package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestBaseErrorTypes(t *testing.T) {
	if ErrUploadLocked.Error() != "upload in progress" {
		t.Errorf("ErrUploadLocked has unexpected message: %s", ErrUploadLocked.Error())
	}
	if ErrBadExtension.Error() != "only .csv files are accepted" {
		t.Errorf("ErrBadExtension has unexpected message: %s", ErrBadExtension.Error())
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InvalidSalary", ErrInvalidSalary, 4001},
		{"NegativeSalary", ErrNegativeSalary, 4001},
		{"ColumnCount", ErrColumnCount, 4002},
		{"DuplicateLogin", ErrDuplicateLogin, 4003},
		{"BadExtension", ErrBadExtension, 4004},
		{"UploadLocked", ErrUploadLocked, 4030},
		{"RecordNotFound", ErrRecordNotFound, 4040},
		{"ChunkOutOfOrder", ErrChunkOutOfOrder, 4091},
		{"Storage", ErrStorage, 5001},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrIngestStalled), 4008},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestRowError(t *testing.T) {
	rowErr := NewRowError(3, "dummy002", ErrNegativeSalary)

	expected := "row at line 3 (id dummy002): salary cannot be negative"
	if rowErr.Error() != expected {
		t.Errorf("RowError.Error() = %s, want %s", rowErr.Error(), expected)
	}

	if !errors.Is(rowErr, ErrNegativeSalary) {
		t.Errorf("errors.Is(rowErr, ErrNegativeSalary) = false, want true")
	}

	fields := LogFieldsOf(fmt.Errorf("ingest: %w", rowErr))
	if fields["line"] != 3 {
		t.Errorf("LogFields line = %v, want 3", fields["line"])
	}
	if fields["error_code"] != CodeInvalidSalary {
		t.Errorf("LogFields error_code = %v, want %d", fields["error_code"], CodeInvalidSalary)
	}
}

func TestRowErrorWithoutID(t *testing.T) {
	rowErr := NewRowError(2, "", ErrColumnCount)

	if rowErr.Error() != "row at line 2: unexpected number of columns" {
		t.Errorf("RowError.Error() = %s", rowErr.Error())
	}
}

func TestChunkError(t *testing.T) {
	chunkErr := NewChunkError("staff.txt", 0, 3, "session-1", ErrBadExtension)

	if !errors.Is(chunkErr, ErrBadExtension) {
		t.Errorf("errors.Is(chunkErr, ErrBadExtension) = false, want true")
	}
	if ErrorCode(chunkErr) != CodeBadExtension {
		t.Errorf("ErrorCode(chunkErr) = %d, want %d", ErrorCode(chunkErr), CodeBadExtension)
	}

	fields := chunkErr.(*ChunkError).LogFields()
	if fields["session_id"] != "session-1" {
		t.Errorf("LogFields session_id = %v, want session-1", fields["session_id"])
	}
}

func TestLogFieldsOfPlainError(t *testing.T) {
	fields := LogFieldsOf(errors.New("boom"))
	if fields["error"] != "boom" {
		t.Errorf("LogFieldsOf(plain) = %v", fields)
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ErrColumnCount) {
		t.Errorf("ErrColumnCount should be a validation error")
	}
	if IsValidationError(ErrStorage) {
		t.Errorf("ErrStorage should not be a validation error")
	}
	if !IsNotFoundError(fmt.Errorf("x: %w", ErrArtifactNotFound)) {
		t.Errorf("wrapped ErrArtifactNotFound should be a not found error")
	}
}
