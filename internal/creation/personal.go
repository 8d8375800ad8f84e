package creation

import (
	"strconv"
	"strings"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/session"
)

const otherGender = "Other"

// stepPersonal collects name, gender, and age (S0).
func stepPersonal(r *run) (session.Step, error) {
	d, err := r.draft()
	if err != nil {
		return 0, err
	}
	name, err := askName(r)
	if err != nil {
		return 0, err
	}
	gender, err := askGender(r)
	if err != nil {
		return 0, err
	}
	age, err := askAge(r)
	if err != nil {
		return 0, err
	}
	d.Name, d.Gender, d.Age = name, gender, age
	return r.done(d, session.StepPersonal), nil
}

func askName(r *run) (string, error) {
	for {
		in, err := r.ask("What is your character's name?")
		if err != nil {
			return "", err
		}
		if character.ValidName(in) {
			return in, nil
		}
		if err := r.reject(invalid("a name is at least two letters, spaces, or hyphens")); err != nil {
			return "", err
		}
	}
}

func askGender(r *run) (string, error) {
	options := append(append([]string{}, character.Genders...), otherGender)
	menu := "Gender:\n" + numbered(options)
	for {
		in, err := r.ask(menu)
		if err != nil {
			return "", err
		}
		if in == "" {
			if err := r.reject(invalid("choose a number or describe your gender")); err != nil {
				return "", err
			}
			continue
		}
		if !isDigits(in) {
			return in, nil
		}
		i, err := parseIndex(in, len(options))
		if err != nil {
			if err := r.reject(err); err != nil {
				return "", err
			}
			continue
		}
		if options[i] != otherGender {
			return options[i], nil
		}
		for {
			free, err := r.ask("Describe your character's gender:")
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(free) != "" {
				return free, nil
			}
			if err := r.reject(invalid("gender must not be empty")); err != nil {
				return "", err
			}
		}
	}
}

func askAge(r *run) (int, error) {
	for {
		in, err := r.ask("How old is your character?")
		if err != nil {
			return 0, err
		}
		age, convErr := strconv.Atoi(in)
		if convErr == nil && character.ValidAge(age) {
			return age, nil
		}
		if err := r.reject(invalid("age must be a whole number from %d to %d", character.MinAge, character.MaxAge)); err != nil {
			return 0, err
		}
	}
}
