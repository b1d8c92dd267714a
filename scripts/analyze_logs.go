package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Summarizes one day of TripLink logs: ledger activity, payout
// outcomes and the error patterns worth a closer look.
type logStats struct {
	TotalErrors         int
	LoginSuccess        int
	LoginFailures       int
	RechargesCompleted  int
	CashoutsCreated     int
	CashoutsCompleted   int
	CashoutsCancelled   int
	PostsPurchased      int
	InsufficientBalance int
	DuplicateReferences int
	SweepRuns           int
	ErrorPatterns       map[string]int
}

func main() {
	today := time.Now().Format("2006-01-02")
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "./logs"
	}

	stats := &logStats{ErrorPatterns: make(map[string]int)}

	analyzeErrorLog(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)
	analyzeInfoLog(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)

	printReport(stats)
}

func analyzeErrorLog(logFile string, stats *logStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		switch {
		case strings.Contains(line, "Invalid password"), strings.Contains(line, "not found for email"):
			stats.LoginFailures++
		case strings.Contains(line, "insufficient"):
			stats.InsufficientBalance++
		case strings.Contains(line, "already in use"), strings.Contains(line, "duplicate"):
			stats.DuplicateReferences++
		}

		// Bucket by the message before the first colon so repeated
		// failures group together.
		pattern := line
		if idx := strings.Index(line, ":"); idx > 0 {
			pattern = line[:idx]
		}
		stats.ErrorPatterns[pattern]++
	}
}

func analyzeInfoLog(logFile string, stats *logStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.Contains(line, "login successful"), strings.Contains(line, "Login successful"):
			stats.LoginSuccess++
		case strings.Contains(line, "Recharge completed"):
			stats.RechargesCompleted++
		case strings.Contains(line, "Created cashout request"):
			stats.CashoutsCreated++
		case strings.Contains(line, "Completed cashout request"):
			stats.CashoutsCompleted++
		case strings.Contains(line, "Cancelled cashout request"):
			stats.CashoutsCancelled++
		case strings.Contains(line, "purchased by user"):
			stats.PostsPurchased++
		case strings.Contains(line, "Expiry sweep finished"):
			stats.SweepRuns++
		}
	}
}

func printReport(stats *logStats) {
	fmt.Println("=== TripLink Daily Log Report ===")
	fmt.Printf("Logins:               %d ok / %d failed\n", stats.LoginSuccess, stats.LoginFailures)
	fmt.Printf("Recharges completed:  %d\n", stats.RechargesCompleted)
	fmt.Printf("Cashouts:             %d created / %d completed / %d cancelled\n",
		stats.CashoutsCreated, stats.CashoutsCompleted, stats.CashoutsCancelled)
	fmt.Printf("Posts purchased:      %d\n", stats.PostsPurchased)
	fmt.Printf("Expiry sweep runs:    %d\n", stats.SweepRuns)
	fmt.Printf("Balance rejections:   %d\n", stats.InsufficientBalance)
	fmt.Printf("Duplicate references: %d\n", stats.DuplicateReferences)
	fmt.Printf("Total errors:         %d\n", stats.TotalErrors)

	if len(stats.ErrorPatterns) == 0 {
		return
	}
	fmt.Println("\nTop error patterns:")
	type patternCount struct {
		pattern string
		count   int
	}
	patterns := make([]patternCount, 0, len(stats.ErrorPatterns))
	for p, c := range stats.ErrorPatterns {
		patterns = append(patterns, patternCount{p, c})
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].count > patterns[j].count })
	for i, p := range patterns {
		if i >= 10 {
			break
		}
		fmt.Printf("  %4d  %s\n", p.count, p.pattern)
	}
}
