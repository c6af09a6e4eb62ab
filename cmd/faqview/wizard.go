package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/faqview/internal/datasource"
	"github.com/vanderheijden86/faqview/pkg/config"
	"github.com/vanderheijden86/faqview/pkg/model"
)

const defaultContentFile = "faq.json"

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

// runInit asks for questions and writes them to a new JSON content file.
func runInit(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: faqview init [path]")
	}
	path := defaultContentFile
	if len(args) == 1 {
		path = config.ExpandHome(args[0])
	}
	if t, err := datasource.DetectType(path); err != nil || t != datasource.SourceTypeJSON {
		return fmt.Errorf("init writes JSON; %q needs a .json extension", path)
	}

	if _, err := os.Stat(path); err == nil {
		overwrite := false
		form := newForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s exists. Overwrite?", path)).
				Value(&overwrite),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Nothing written")
			return nil
		}
	}

	fmt.Println("Add questions (answers may use Markdown)")
	fmt.Println("────────────────────────────────────────")

	var questions []model.Question
	for {
		var q model.Question
		more := true
		form := newForm(huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Question %d", len(questions)+1)).
				Value(&q.Question).
				Validate(notBlank),
			huh.NewText().
				Title("Answer").
				Value(&q.Answer).
				Validate(notBlank),
			huh.NewConfirm().
				Title("Add another question?").
				Value(&more),
		))
		if err := form.Run(); err != nil {
			return err
		}
		questions = append(questions, q)
		if !more {
			break
		}
	}

	if err := writeContentFile(path, questions); err != nil {
		return err
	}
	fmt.Printf("Wrote %d questions to %s\n", len(questions), path)

	register := true
	form := newForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Add this file to your faqview config?").
			Description(config.ConfigPath()).
			Value(&register),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if !register {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return registerSource(config.ConfigPath(), abs)
}

// writeContentFile writes questions as a JSON content document.
func writeContentFile(path string, questions []model.Question) error {
	data, err := datasource.EncodeJSON(questions)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// registerSource adds location to the config at cfgPath.
func registerSource(cfgPath, location string) error {
	if cfgPath == "" {
		return errors.New("no config directory available")
	}
	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		return err
	}
	if !cfg.AddSource(location) {
		fmt.Printf("%s is already configured\n", location)
		return nil
	}
	if err := config.SaveTo(cfg, cfgPath); err != nil {
		return err
	}
	fmt.Printf("Added %s to %s\n", location, cfgPath)
	return nil
}
