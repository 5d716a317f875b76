package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	root := &cobra.Command{
		Use:           "thanksboard",
		Short:         "Anonymous question cards and thanks notes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())

	if err := root.Execute(); err != nil {
		log.Printf("thanksboard: %v", err)
		os.Exit(1)
	}
}
