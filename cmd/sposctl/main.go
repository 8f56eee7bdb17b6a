package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "sposd diagnostics API base URL")
	cmd := flag.String("cmd", "processes", "processes | login | strategy | set-strategy | trigger-taskmanager")
	strategy := flag.String("strategy", "", "strategy name for set-strategy")
	username := flag.String("username", "admin", "operator username for login")
	password := flag.String("password", "", "operator password for login")
	flag.Parse()

	log := buildLogger()
	log = log.Named("main")

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatal("cookie jar init failed", zap.Error(err))
	}
	client := &http.Client{Jar: jar}

	var resp *http.Response

	switch strings.ToLower(*cmd) {
	case "processes":
		resp, err = client.Get(*addr + "/api/processes")
	case "strategy":
		resp, err = client.Get(*addr + "/api/strategy")
	case "login":
		if *password == "" {
			fmt.Println("Usage: sposctl -cmd=login -username=<name> -password=<secret>")
			os.Exit(1)
		}
		body, _ := json.Marshal(map[string]string{"username": *username, "password": *password})
		resp, err = client.Post(*addr+"/api/login", "application/json", strings.NewReader(string(body)))
	case "set-strategy":
		if *strategy == "" {
			fmt.Println("Usage: sposctl -cmd=set-strategy -strategy=<name>")
			os.Exit(1)
		}
		body, _ := json.Marshal(map[string]string{"strategy": *strategy})
		resp, err = client.Post(*addr+"/api/strategy", "application/json", strings.NewReader(string(body)))
	case "trigger-taskmanager":
		resp, err = client.Post(*addr+"/api/taskmanager/trigger", "application/json", nil)
	default:
		fmt.Println("unknown -cmd:", *cmd)
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("request failed", zap.Error(err))
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal("read response failed", zap.Error(err))
	}

	log.Info("response", zap.Int("status", resp.StatusCode))
	fmt.Println(string(out))
}

func buildLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	return zap.Must(cfg.Build())
}
