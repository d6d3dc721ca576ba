package handlers

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidatePostInput(t *testing.T) {
	cases := []struct {
		name     string
		in       PostInput
		expected map[string]string
	}{
		{name: "valid", in: PostInput{Text: "hi", Name: "Jane"}, expected: map[string]string{}},
		{name: "valid max", in: PostInput{Text: strings.Repeat("a", 300)}, expected: map[string]string{}},
		{name: "runes not bytes", in: PostInput{Text: strings.Repeat("ж", 300)}, expected: map[string]string{}},
		{name: "missing text", in: PostInput{}, expected: map[string]string{"text": "Text field is required"}},
		{name: "too short", in: PostInput{Text: "a"}, expected: map[string]string{"text": "Post must be between 2 and 300 characters"}},
		{name: "too long", in: PostInput{Text: strings.Repeat("a", 301)}, expected: map[string]string{"text": "Post must be between 2 and 300 characters"}},
		{name: "bad avatar", in: PostInput{Text: "hello", Avatar: "not a url"}, expected: map[string]string{"avatar": "Avatar must be a valid URL"}},
		{name: "good avatar", in: PostInput{Text: "hello", Avatar: "https://gravatar.com/avatar/1"}, expected: map[string]string{}},
	}

	for _, tc := range cases {
		errs, ok := ValidatePostInput(&tc.in)
		if !reflect.DeepEqual(errs, tc.expected) {
			t.Errorf("%s: expected %v, but was %v", tc.name, tc.expected, errs)
		}
		if ok != (len(tc.expected) == 0) {
			t.Errorf("%s: unexpected ok %v", tc.name, ok)
		}
	}
}

func TestValidateAuthInput(t *testing.T) {
	errs, ok := ValidateAuthInput(&AuthReq{Username: "vectoreal", Password: "secret_password"})
	if !ok || len(errs) != 0 {
		t.Errorf("valid credentials rejected: %v", errs)
	}

	errs, ok = ValidateAuthInput(&AuthReq{Username: "bad name", Password: "short"})
	expected := map[string]string{
		"username": "Username may only contain letters, digits, _ and -",
		"password": "Password must be between 8 and 72 characters",
	}
	if ok || !reflect.DeepEqual(errs, expected) {
		t.Errorf("expected %v, but was %v", expected, errs)
	}

	errs, _ = ValidateAuthInput(&AuthReq{Username: strings.Repeat("a", 33)})
	if errs["username"] != "Username must be at most 32 characters" {
		t.Errorf("unexpected username error: %q", errs["username"])
	}
	if errs["password"] != "Password field is required" {
		t.Errorf("unexpected password error: %q", errs["password"])
	}
}
