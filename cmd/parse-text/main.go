// Command parse-text runs the extraction pipelines on text read from stdin and
// prints the resulting record as JSON. It is handy for tuning the patterns
// against real transcripts and OCR dumps.
//
//	echo "paid 50 rupees for coffee today" | parse-text
//	parse-text --mode receipt --confidence 85 < receipt.txt
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/SyedHassanUddin/expense-flow/internal/extract"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if msg := extract.UserMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := ff.NewFlagSet("parse-text")
	var (
		mode       = fs.StringLong("mode", "voice", "Pipeline: 'voice' (one alternative per line) or 'receipt'")
		confidence = fs.Float64Long("confidence", 100, "OCR confidence (0-100) for receipt mode")
		dateOrder  = fs.StringLong("date-order", "auto", "How to read dates like 03/04/2024: 'auto', 'mdy' or 'dmy'")
		refDate    = fs.StringLong("ref", "", "Reference date YYYY-MM-DD for relative dates (default today)")
	)
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("EXPENSE_FLOW")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return err
	}

	order, err := extract.ParseDateOrder(*dateOrder)
	if err != nil {
		return err
	}
	opts := extract.Options{DateOrder: order}

	ref := time.Now()
	if *refDate != "" {
		if ref, err = time.ParseInLocation("2006-01-02", *refDate, time.Local); err != nil {
			return fmt.Errorf("parsing --ref: %w", err)
		}
	}

	var rec extract.Record
	switch *mode {
	case "voice":
		var alts []extract.Alternative
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				alts = append(alts, extract.Alternative{Transcript: line})
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		rec, err = extract.ParseAlternatives(alts, ref, opts)
	case "receipt":
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return fmt.Errorf("reading stdin: %w", readErr)
		}
		rec, err = extract.ParseReceipt(extract.OCRText{Text: string(data), Confidence: *confidence}, ref, opts)
	default:
		return fmt.Errorf("invalid mode %q: want voice or receipt", *mode)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
