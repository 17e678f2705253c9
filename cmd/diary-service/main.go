package main

import (
	"os"

	"github.com/inkwell-app/inkwell-diary/diaryservice"
)

func main() {
	if err := diaryservice.Run(); err != nil {
		os.Exit(1)
	}
}
