package main

import "testing"

func TestRootCmd_DLLAliasesLib(t *testing.T) {
	flags := rootCmd.Flags()

	if err := flags.Set("dll", "codec.dll"); err != nil {
		t.Fatalf("Set(dll) error = %v", err)
	}
	if libPath != "codec.dll" {
		t.Errorf("libPath = %q after --dll, want %q", libPath, "codec.dll")
	}

	f := flags.Lookup("dll")
	if f == nil {
		t.Fatal("Lookup(dll) = nil, want the lib flag")
	}
	if f.Name != "lib" {
		t.Errorf("Lookup(dll).Name = %q, want %q", f.Name, "lib")
	}

	// Both spellings move the same flag.
	if err := flags.Set("lib", "libgdeflate.so"); err != nil {
		t.Fatalf("Set(lib) error = %v", err)
	}
	if libPath != "libgdeflate.so" {
		t.Errorf("libPath = %q after --lib, want %q", libPath, "libgdeflate.so")
	}
}
