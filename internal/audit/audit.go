// Package audit implements the hash-chained, truncation-detecting audit
// log. Every administrative action — allowed or denied — is appended as
// one line whose hash commits to the previous line's hash, so deleting,
// reordering, or editing any prior entry is detectable. A companion
// "roots" file records the chain's tip after every append, which is the
// only way truncation of a suffix of the log can be detected (the chain
// itself is still internally consistent after a suffix is cut).
package audit

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"backupvault/internal/hashutil"
)

// Status is the closed set of outcomes an audited command may have.
type Status string

const (
	StatusOK   Status = "OK"
	StatusFail Status = "FAIL"
	StatusDeny Status = "DENY"
)

const rootsSuffix = "_roots"

// Logger appends entries to an audit log file and its companion roots file.
type Logger struct {
	path      string
	rootsPath string
	now       func() time.Time
}

// New returns a Logger backed by path. The roots file lives alongside it,
// named by replacing the ".log" extension with "_roots.log" (so
// "audit.log" pairs with "audit_roots.log", matching the store layout).
func New(path string) *Logger {
	return &Logger{path: path, rootsPath: rootsPath(path), now: time.Now}
}

func rootsPath(auditPath string) string {
	if strings.HasSuffix(auditPath, ".log") {
		return strings.TrimSuffix(auditPath, ".log") + rootsSuffix + ".log"
	}
	return auditPath + rootsSuffix
}

// Log appends one entry recording that user ran command with the given
// argument string and status. args is hashed, never stored in the clear,
// so that every line has exactly the seven whitespace-separated fields
// Verify expects, even when args contains spaces, and to avoid leaking argument
// content (e.g. file paths containing secrets) beyond what a hash proves.
func (l *Logger) Log(user, command, args string, status Status) error {
	prev, err := l.lastEntryHash()
	if err != nil {
		return err
	}

	ts := l.now().UnixMilli()
	argsHash := hashutil.String(args)
	raw := fmt.Sprintf("%s %d %s %s %s %s", prev, ts, user, command, argsHash, status)
	entryHash := hashutil.String(raw)
	line := entryHash + " " + raw

	if err := appendLine(l.path, line); err != nil {
		return err
	}

	count, err := l.countLines()
	if err != nil {
		return err
	}
	return appendLine(l.rootsPath, fmt.Sprintf("%d %s", count, entryHash))
}

func (l *Logger) lastEntryHash() (string, error) {
	lines, err := readLines(l.path)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return hashutil.ZeroHash, nil
	}
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) == 0 {
		return hashutil.ZeroHash, nil
	}
	return fields[0], nil
}

func (l *Logger) countLines() (int, error) {
	lines, err := readLines(l.path)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return err
	}
	return f.Sync()
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// FailureKind distinguishes the ways audit-verify can fail.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureChainBroken
	FailureHashMismatch
	FailureTruncated
	FailureLastEntryMismatch
)

// VerifyResult is the outcome of Verify.
type VerifyResult struct {
	Kind    FailureKind
	Line    int // 1-based line number of the offending entry, 0 if not line-specific
	Message string
}

// OK reports whether the audit log passed verification.
func (r VerifyResult) OK() bool { return r.Kind == FailureNone }

// Verify checks the hash chain of path line by line, then cross-checks
// the tip against the companion roots file (same naming convention as
// New) to detect suffix truncation: deleting trailing lines from
// audit.log while leaving audit_roots.log untouched.
func Verify(path string) (VerifyResult, error) {
	lines, err := readLines(path)
	if err != nil {
		return VerifyResult{}, err
	}

	prevChain := hashutil.ZeroHash
	for i, line := range lines {
		parts := strings.Fields(line)
		if len(parts) != 7 {
			return VerifyResult{Kind: FailureChainBroken, Line: i + 1, Message: "invalid line format"}, nil
		}
		entryHash, prevInEntry := parts[0], parts[1]

		if prevInEntry != prevChain {
			return VerifyResult{Kind: FailureChainBroken, Line: i + 1, Message: "chain broken: expected prev " + prevChain + ", got " + prevInEntry}, nil
		}

		raw := strings.Join(parts[1:], " ")
		if hashutil.String(raw) != entryHash {
			return VerifyResult{Kind: FailureHashMismatch, Line: i + 1, Message: "entry hash mismatch"}, nil
		}

		prevChain = entryHash
	}

	rp := rootsPath(path)
	rootLines, err := readLines(rp)
	if err != nil {
		return VerifyResult{}, err
	}
	if len(rootLines) == 0 {
		return VerifyResult{Kind: FailureNone}, nil
	}

	expectedCount, expectedHash, err := parseRootLine(rootLines[len(rootLines)-1])
	if err != nil {
		return VerifyResult{}, err
	}

	if len(lines) < expectedCount {
		return VerifyResult{
			Kind:    FailureTruncated,
			Line:    len(lines),
			Message: fmt.Sprintf("expected %d entries, found %d", expectedCount, len(lines)),
		}, nil
	}
	if len(lines) == expectedCount && prevChain != expectedHash {
		return VerifyResult{
			Kind:    FailureLastEntryMismatch,
			Line:    len(lines),
			Message: fmt.Sprintf("expected tip hash %s, got %s", expectedHash, prevChain),
		}, nil
	}

	return VerifyResult{Kind: FailureNone}, nil
}

func parseRootLine(line string) (int, string, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("invalid audit roots line: %q", line)
	}
	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid audit roots count: %q", parts[0])
	}
	return count, parts[1], nil
}
