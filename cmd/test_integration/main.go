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

var baseURL = "http://localhost:8080"

type snapshot struct {
	ID         string `json:"id"`
	Tick       int    `json:"tick"`
	Settled    bool   `json:"settled"`
	Scientists []struct {
		Confidence float64 `json:"confidence"`
		Score      float64 `json:"score"`
	} `json:"scientists"`
	Politicians []struct {
		Confidence float64 `json:"confidence"`
	} `json:"politicians"`
	Edges []json.RawMessage `json:"edges"`
}

func main() {
	if v := os.Getenv("BASE_URL"); v != "" {
		baseURL = v
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	// 1. Reset with a known seed
	fmt.Println("1. Resetting scenario...")
	var start snapshot
	if !sendRequest("POST", "/reset", map[string]interface{}{"seed": time.Now().Unix()}, &start) {
		fmt.Println("FAILED: Reset")
		os.Exit(1)
	}
	if start.Tick != 0 {
		fmt.Printf("FAILED: Reset left tick at %d\n", start.Tick)
		os.Exit(1)
	}
	fmt.Printf("PASSED: Reset (%s, %d scientists, %d edges)\n", start.ID, len(start.Scientists), len(start.Edges))

	// 2. Advance and check the confidence ceiling
	fmt.Println("2. Ticking...")
	var after snapshot
	if !sendRequest("POST", "/tick", map[string]int{"ticks": 50}, &after) {
		fmt.Println("FAILED: Tick")
		os.Exit(1)
	}
	if after.ID != start.ID || after.Tick != 50 {
		fmt.Printf("FAILED: expected tick 50 of %s, got tick %d of %s\n", start.ID, after.Tick, after.ID)
		os.Exit(1)
	}
	for i, s := range after.Scientists {
		if s.Confidence > 1 {
			fmt.Printf("FAILED: scientist %d confidence %v exceeds 1\n", i, s.Confidence)
			os.Exit(1)
		}
	}
	for i, p := range after.Politicians {
		if p.Confidence > 1 {
			fmt.Printf("FAILED: politician %d confidence %v exceeds 1\n", i, p.Confidence)
			os.Exit(1)
		}
	}
	fmt.Println("PASSED: Tick")

	// 3. Settled and communities
	fmt.Println("3. Querying settled state and communities...")
	if !sendRequest("GET", "/settled", nil, nil) || !sendRequest("GET", "/communities?method=lpa", nil, nil) {
		fmt.Println("FAILED: Queries")
		os.Exit(1)
	}
	fmt.Println("PASSED: Queries")
}

func sendRequest(method, endpoint string, payload interface{}, out interface{}) bool {
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

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
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

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			fmt.Printf("Error decoding response: %v\n", err)
			return false
		}
		return true
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return true
}
