package java

import (
	"context"
	"path/filepath"
	"testing"
)

func TestParseMajor(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    int
	}{
		{"Java 8 old format", "1.8.0_391", 8},
		{"Java 8 short", "1.8.0", 8},
		{"Java 11", "11.0.21", 11},
		{"Java 17", "17.0.9", 17},
		{"Java 21", "21.0.1", 21},
		{"Java 21 short", "21", 21},
		{"Empty string", "", 0},
		{"Invalid", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseMajor(tt.version)
			if got != tt.want {
				t.Errorf("parseMajor(%q) = %d, want %d", tt.version, got, tt.want)
			}
		})
	}
}

func TestParseProbe_OpenJDK21(t *testing.T) {
	output := `openjdk version "21.0.1" 2023-10-17
OpenJDK Runtime Environment (build 21.0.1+12-29)
OpenJDK 64-Bit Server VM (build 21.0.1+12-29, mixed mode, sharing)`

	rt, err := parseProbe("/usr/bin/java", output)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if rt.Major != 21 {
		t.Errorf("Major = %d, want 21", rt.Major)
	}
	if !rt.Is64Bit {
		t.Error("Expected 64-bit")
	}
	if rt.Vendor != "OpenJDK" {
		t.Errorf("Vendor = %q, want OpenJDK", rt.Vendor)
	}
}

func TestParseProbe_Java8(t *testing.T) {
	output := `java version "1.8.0_391"
Java(TM) SE Runtime Environment (build 1.8.0_391-b13)
Java HotSpot(TM) 64-Bit Server VM (build 25.391-b13, mixed mode)`

	rt, err := parseProbe("/usr/bin/java", output)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if rt.Major != 8 {
		t.Errorf("Major = %d, want 8", rt.Major)
	}
	if !rt.Is64Bit {
		t.Error("Expected 64-bit")
	}
}

func TestParseProbe_Temurin(t *testing.T) {
	output := `openjdk version "17.0.9" 2023-10-17
OpenJDK Runtime Environment Temurin-17.0.9+9 (build 17.0.9+9)
OpenJDK 64-Bit Server VM Temurin-17.0.9+9 (build 17.0.9+9, mixed mode)`

	rt, err := parseProbe("/usr/bin/java", output)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if rt.Vendor != "Eclipse Adoptium" {
		t.Errorf("Vendor = %q, want Eclipse Adoptium", rt.Vendor)
	}
}

func TestParseProbe_NoVersion(t *testing.T) {
	_, err := parseProbe("/usr/bin/java", "Error: could not open libjvm.so")
	if err == nil {
		t.Fatal("expected an error for unparseable output")
	}
}

func TestProbe_MissingBinary(t *testing.T) {
	_, err := Probe(context.Background(), filepath.Join(t.TempDir(), "java"))
	if err == nil {
		t.Fatal("expected an error for a missing binary")
	}
}

func TestBest(t *testing.T) {
	runtimes := []Runtime{
		{Path: "/jvm/8", Major: 8, Is64Bit: true},
		{Path: "/jvm/17", Major: 17, Is64Bit: true},
		{Path: "/jvm/21", Major: 21, Is64Bit: true},
		{Path: "/jvm/22-32bit", Major: 22, Is64Bit: false},
	}

	tests := []struct {
		name     string
		required int
		wantPath string
	}{
		{"oldest meeting requirement", 17, "/jvm/17"},
		{"exact requirement", 21, "/jvm/21"},
		{"no requirement picks oldest", 0, "/jvm/8"},
		{"nothing meets it falls back to newest 64-bit", 25, "/jvm/21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Best(runtimes, tt.required)
			if got == nil {
				t.Fatal("Best returned nil")
			}
			if got.Path != tt.wantPath {
				t.Errorf("Best picked %s, want %s", got.Path, tt.wantPath)
			}
		})
	}

	if Best(nil, 17) != nil {
		t.Error("Best over no runtimes should be nil")
	}
	only32 := []Runtime{{Path: "/jvm/x", Major: 17, Is64Bit: false}}
	if Best(only32, 8) != nil {
		t.Error("32-bit runtimes should never be picked")
	}
}

func TestRuntimeString(t *testing.T) {
	rt := &Runtime{Path: "/usr/bin/java", Version: "21.0.1", Major: 21, Is64Bit: true, Vendor: "OpenJDK"}
	if got := rt.String(); got != "Java 21 (OpenJDK, 64-bit)" {
		t.Errorf("String() = %q, want %q", got, "Java 21 (OpenJDK, 64-bit)")
	}

	unknown := &Runtime{Path: "/usr/bin/java", Major: 17}
	if got := unknown.String(); got != "Java 17 (Unknown, 32-bit)" {
		t.Errorf("String() = %q, want %q", got, "Java 17 (Unknown, 32-bit)")
	}
}
