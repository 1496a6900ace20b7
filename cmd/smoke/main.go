package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const baseURL = "http://localhost:8080"

// Smoke test against a running server: search the graph, then fetch stats.
func main() {
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test...")

	fmt.Println("1. Searching graph...")
	if !sendRequest("POST", "/search", map[string]interface{}{
		"query": "INSAT",
		"limit": 5,
	}) {
		fmt.Println("FAILED: search")
		os.Exit(1)
	}
	fmt.Println("PASSED: search")

	fmt.Println("2. Fetching statistics...")
	if !sendRequest("GET", "/stats", nil) {
		fmt.Println("FAILED: stats")
		os.Exit(1)
	}
	fmt.Println("PASSED: stats")
}

func sendRequest(method, endpoint string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return true
}
