package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/storage"
)

func startConsole(ctx context.Context, store *storage.Storage, exit func()) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. View all signups")
		fmt.Println("  2. View signups by kind")
		fmt.Println("  3. View totals")
		fmt.Println("  4. View contact messages")
		fmt.Println("  5. Exit")
		fmt.Print("\nEnter command (1-5): ")

		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			viewAllSignups(ctx, store)
		case "2":
			viewSignupsByKind(ctx, scanner, store)
		case "3":
			viewTotals(ctx, store)
		case "4":
			viewContactMessages(ctx, store)
		case "5":
			fmt.Println("Exiting...")
			exit()
			return
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

func viewAllSignups(ctx context.Context, store *storage.Storage) {
	signups, err := store.GetAllSignups(ctx)
	if err != nil {
		fmt.Printf("❌ Error loading signups: %v\n", err)
		return
	}
	if len(signups) == 0 {
		fmt.Println("\nNo signups yet.")
		return
	}

	fmt.Printf("\n📋 All Signups (%d total):\n", len(signups))
	printSignups(signups)
}

func viewSignupsByKind(ctx context.Context, scanner *bufio.Scanner, store *storage.Storage) {
	fmt.Println("\nSelect kind:")
	fmt.Println("  1. Newsletter")
	fmt.Println("  2. Waitlist")
	fmt.Print("Enter choice (1-2): ")

	if !scanner.Scan() {
		return
	}

	var kind models.SignupKind
	switch strings.TrimSpace(scanner.Text()) {
	case "1":
		kind = models.KindNewsletter
	case "2":
		kind = models.KindWaitlist
	default:
		fmt.Println("Invalid choice.")
		return
	}

	signups, err := store.GetSignupsByKind(ctx, kind)
	if err != nil {
		fmt.Printf("❌ Error loading signups: %v\n", err)
		return
	}
	if len(signups) == 0 {
		fmt.Printf("\nNo %s signups.\n", kind)
		return
	}

	fmt.Printf("\n📋 %s signups (%d total):\n", kind, len(signups))
	printSignups(signups)
}

func viewTotals(ctx context.Context, store *storage.Storage) {
	counts, err := store.CountByKind(ctx)
	if err != nil {
		fmt.Printf("❌ Error counting signups: %v\n", err)
		return
	}
	fmt.Printf("\n📊 Newsletter: %d\n", counts[models.KindNewsletter])
	fmt.Printf("📊 Waitlist: %d\n", counts[models.KindWaitlist])

	messages, err := store.CountContactMessages(ctx)
	if err != nil {
		fmt.Printf("❌ Error counting contact messages: %v\n", err)
		return
	}
	fmt.Printf("📊 Contact messages: %d\n", messages)
}

func viewContactMessages(ctx context.Context, store *storage.Storage) {
	messages, err := store.LatestContactMessages(ctx, 20)
	if err != nil {
		fmt.Printf("❌ Error loading contact messages: %v\n", err)
		return
	}
	if len(messages) == 0 {
		fmt.Println("\nNo contact messages yet.")
		return
	}

	fmt.Printf("\n✉️  Latest contact messages (%d):\n", len(messages))
	fmt.Println(strings.Repeat("-", 60))
	for _, m := range messages {
		fmt.Printf("From: %s <%s>\n", m.Name, m.Email)
		fmt.Printf("Subject: %s\n", m.Subject)
		fmt.Printf("Received: %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println(m.Message)
		fmt.Println(strings.Repeat("-", 60))
	}
}

func printSignups(signups []models.Signup) {
	fmt.Println(strings.Repeat("-", 60))
	for _, s := range signups {
		fmt.Printf("Name: %s\n", s.Name())
		fmt.Printf("Email: %s\n", s.Email)
		fmt.Printf("Kind: %s\n", s.Kind)
		if s.Role != "" {
			fmt.Printf("Role: %s\n", s.Role)
		}
		if s.Company != "" {
			fmt.Printf("Company: %s\n", s.Company)
		}
		if len(s.Interests) > 0 {
			fmt.Printf("Interests: %s\n", strings.Join(s.Interests, ", "))
		}
		fmt.Printf("Signed up: %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println(strings.Repeat("-", 60))
	}
}
