package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"hyphema-tracker/internal/config"
)

func main() {
	fmt.Println("Validating configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Note: .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid.")
	fmt.Printf("  - Listen port: %s\n", cfg.Server.Port)
	fmt.Printf("  - Max upload: %d bytes\n", cfg.Server.MaxUploadBytes)
	fmt.Printf("  - DB host: %s\n", cfg.DB.Host)
	fmt.Printf("  - DB port: %s\n", cfg.DB.Port)
	fmt.Printf("  - DB user: %s\n", cfg.DB.User)
	fmt.Printf("  - DB name: %s\n", cfg.DB.DBName)
	fmt.Printf("  - DB password: %s\n", maskSecret(cfg.DB.Password))
	fmt.Printf("  - Upload dir: %s\n", cfg.Storage.UploadDir)
	fmt.Printf("  - Detector: %s %s\n", cfg.Detector.Interpreter, cfg.Detector.ScriptPath)
	fmt.Printf("  - Detector timeout: %s\n", cfg.Detector.Timeout)
	fmt.Printf("  - Log level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log format: %s\n", cfg.Logger.Format)
}

func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) <= 4 {
		return "***"
	}
	return s[:2] + "..." + s[len(s)-2:]
}
