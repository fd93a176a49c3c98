// Package main provides a CLI tool that tails the live share feed over
// WebSocket. Useful for checking feed fan-out during development.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8230", "API server host")
	username := flag.String("username", "", "Username to log in with")
	password := flag.String("password", "password123", "Password")
	token := flag.String("token", "", "JWT token (skips login when set)")
	flag.Parse()

	jwt := *token
	if jwt == "" {
		if *username == "" {
			log.Fatal("either -token or -username is required")
		}
		var err error
		jwt, err = login(*host, *username, *password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		log.Printf("logged in as %s", *username)
	}

	wsURL := url.URL{
		Scheme:   "ws",
		Host:     *host,
		Path:     "/api/ws",
		RawQuery: "token=" + url.QueryEscape(jwt),
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		if resp != nil {
			log.Fatalf("websocket dial failed: %v (status %d)", err, resp.StatusCode)
		}
		log.Fatalf("websocket dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()
	log.Printf("connected to %s, waiting for feed events...", wsURL.String())

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("read error: %v", err)
				return
			}

			var event map[string]interface{}
			if err := json.Unmarshal(message, &event); err != nil {
				log.Printf("<- %s", message)
				continue
			}
			log.Printf("<- %s %v", event["type"], event)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("closing connection...")
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func login(host, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	resp, err := http.Post(
		fmt.Sprintf("http://%s/api/auth/login", host), "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}
