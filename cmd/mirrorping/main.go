// Проверка связи с зеркалом: POST /test_connection и печать подтверждения.
// Запускается с телефона или второй машины, чтобы убедиться в доступности.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	addr := flag.String("addr", "http://127.0.0.1:5000", "базовый URL зеркала")
	message := flag.String("message", "Test Connection from Desktop App", "текст проверочного сообщения")
	flag.Parse()

	body, err := json.Marshal(map[string]string{"message": *message})
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal request:", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	url := strings.TrimRight(*addr, "/") + "/test_connection"
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintln(os.Stderr, "mirror unreachable:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "mirror returned %d: %s\n", resp.StatusCode, strings.TrimSpace(string(raw)))
		os.Exit(1)
	}

	var ack struct {
		Status   string `json:"status"`
		Received string `json:"received_message"`
	}
	if err := json.Unmarshal(raw, &ack); err != nil {
		fmt.Fprintln(os.Stderr, "bad response:", err)
		os.Exit(1)
	}
	fmt.Printf("%s: mirror received %q\n", ack.Status, ack.Received)
}
