package main

import (
	"log"
	"os"
)

// debugEnabled turns on verbose cache, preload and gesture logging
var debugEnabled = os.Getenv("LIGHTBOX_DEBUG") != ""

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("Debug: "+format, args...)
	}
}
