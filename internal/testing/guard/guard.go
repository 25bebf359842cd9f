package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("ATTENDLY_TEST_MODE") == "" {
			_ = os.Setenv("ATTENDLY_TEST_MODE", "1")
		}
	})
}
