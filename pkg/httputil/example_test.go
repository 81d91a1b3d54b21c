package httputil_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mhuisman/etymon/pkg/httputil"
)

func ExampleCache() {
	// Create a cache with 24-hour TTL in a temp directory
	dir := filepath.Join(os.TempDir(), "etymon-example")
	cache, err := httputil.NewCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Store a value
	data := map[string]string{"word": "night", "language": "English"}
	if err := cache.Set("trace:night", data); err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Retrieve the value
	var result map[string]string
	if ok, err := cache.Get("trace:night", &result); ok && err == nil {
		fmt.Println("Word:", result["word"])
		fmt.Println("Language:", result["language"])
	}

	// Clean up
	os.RemoveAll(dir)
	// Output:
	// Word: night
	// Language: English
}

func ExampleCache_miss() {
	dir := filepath.Join(os.TempDir(), "etymon-example-miss")
	cache, _ := httputil.NewCache(dir, time.Hour)
	defer os.RemoveAll(dir)

	// Try to get a non-existent key
	var result string
	ok, err := cache.Get("nonexistent", &result)
	fmt.Println("Found:", ok)
	fmt.Println("Error:", err)
	// Output:
	// Found: false
	// Error: <nil>
}

func ExampleNewCache_defaultDir() {
	// Pass empty string to use default directory (~/.cache/etymon/)
	cache, err := httputil.NewCache("", 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Cache TTL:", cache.TTL())
	// Output:
	// Cache TTL: 24h0m0s
}
