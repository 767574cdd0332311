package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

var (
	once sync.Once
	std  *log.Logger
)

// Logger returns the process-wide logger. Every component writes JSON
// lines through it so output stays machine-parseable.
func Logger() *log.Logger {
	once.Do(func() {
		std = log.New(os.Stdout, "", 0)
	})
	return std
}

// LogRequest marshals the entry map and emits it as a single line.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"ts":"error","level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}
