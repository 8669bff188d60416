package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/sickscan/sickscan-tui/internal/client"
	"github.com/sickscan/sickscan-tui/internal/fixture"
	"github.com/sickscan/sickscan-tui/internal/session"
	"github.com/sickscan/sickscan-tui/views"
)

func fixtureURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(fixture.NewServer(fixture.Default(), zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "sickscan v"+Version {
		t.Fatalf("version output %q", out)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	url := fixtureURL(t)
	out, err := runCLI(t, "check", "--service-url", url, "--text", "I have a fever and a bad cough", "--json")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}

	var res checkResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(res.Symptoms) != 2 {
		t.Fatalf("symptoms = %+v", res.Symptoms)
	}
	if len(res.Predictions) == 0 || res.Predictions[0].Disease != "Common Cold" {
		t.Fatalf("predictions = %+v", res.Predictions)
	}
}

func TestCheckCommandIgnoresBlankText(t *testing.T) {
	url := fixtureURL(t)
	out, err := runCLI(t, "check", "--service-url", url, "--text", "   ", "--symptom", "Cough", "--json")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}

	var res checkResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(res.Symptoms) != 1 || res.Symptoms[0].Source != "manual" {
		t.Fatalf("symptoms = %+v", res.Symptoms)
	}
	if len(res.Predictions) == 0 {
		t.Fatal("expected predictions for cough")
	}
}

func TestCheckCommandRejectsUnknownSymptom(t *testing.T) {
	url := fixtureURL(t)
	_, err := runCLI(t, "check", "--service-url", url, "--symptom", "definitely not a symptom")
	if err == nil || !strings.Contains(err.Error(), "Symptom not recognized") {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckCommandNeedsInput(t *testing.T) {
	if _, err := runCLI(t, "check"); err == nil {
		t.Fatal("expected an error without --text or --symptom")
	}
}

func TestSymptomsCommandJSON(t *testing.T) {
	url := fixtureURL(t)
	out, err := runCLI(t, "symptoms", "--service-url", url, "--json")
	if err != nil {
		t.Fatalf("symptoms: %v", err)
	}
	if !strings.Contains(out, `"name": "High Fever"`) {
		t.Fatalf("catalog output missing High Fever:\n%s", out)
	}
}

func TestBadServiceURLIsRejected(t *testing.T) {
	if _, err := runCLI(t, "symptoms", "--service-url", "ftp://nope"); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestRootRoutesBetweenScreens(t *testing.T) {
	c, err := client.New(fixtureURL(t))
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(c)
	t.Cleanup(sess.Close)

	var m tea.Model = initialModel(sess, c.BaseURL())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = m.Update(views.CatalogView)
	if got := m.(model).currentView; got != views.CatalogView {
		t.Fatalf("view = %q", got)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc on catalog produced nothing")
	}
	m, _ = m.Update(cmd())
	if got := m.(model).currentView; got != views.CheckerView {
		t.Fatalf("view = %q", got)
	}
}
