package logx

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	savedLevel := GetLogLevel()
	baseLogger = log.New(&buf, "", 0)
	t.Cleanup(func() {
		baseLogger = saved
		SetLogLevel(savedLevel.String())
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	msg := "[subgraph] scoped A: 41 of 101 points (40.6% of parent) range=[20,60]"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(40.6% of parent)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!(NOVERB)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t)
	if !SetLogLevel("WARN") {
		t.Fatalf("expected WARN to parse")
	}
	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)
	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("lower levels leaked: %s", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Fatalf("missing warn/error lines: %s", out)
	}
}

func TestSetLogLevelUnknownKeepsCurrent(t *testing.T) {
	captureLogs(t)
	SetLogLevel("error")
	if SetLogLevel("verbose") {
		t.Fatalf("unknown level must not parse")
	}
	if GetLogLevel() != LevelError {
		t.Fatalf("level changed to %v", GetLogLevel())
	}
}
