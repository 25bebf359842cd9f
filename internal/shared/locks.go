package shared

import "fmt"

// OpenSessionLockKey builds redis keys guarding one open attendance session
// per student.
func OpenSessionLockKey(studentID string) string {
	return fmt.Sprintf("attendance:open:%s:lock", studentID)
}
