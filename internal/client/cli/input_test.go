package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(readerFromLines("hello world"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if out.String() != "Name?\n> " {
		t.Fatalf("unexpected prompt %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufioReader("lastline")
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetOptional(t *testing.T) {
	var out bytes.Buffer
	r := readerFromLines("", "  Dakar  ")

	got, err := GetOptional(r, "Birth place", &out)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = GetOptional(r, "Birth place", &out)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dakar", *got)
	assert.Contains(t, out.String(), "Birth place (optional)")
}

func TestGetDate_AsksAgain(t *testing.T) {
	var out bytes.Buffer
	got, err := GetDate(readerFromLines("01/02/1990", "1990-02-01"), "Birth date", &out)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1990-02-01", *got)
	assert.Contains(t, out.String(), "Invalid date")
}

func TestGetDate_Blank(t *testing.T) {
	var out bytes.Buffer
	got, err := GetDate(readerFromLines(""), "Birth date", &out)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetInt64_AsksAgain(t *testing.T) {
	var out bytes.Buffer
	got, err := GetInt64(readerFromLines("ten", "10"), "Amount", &out)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)
	assert.Contains(t, out.String(), "Invalid number")
}

func TestGetInt64_EOF(t *testing.T) {
	var out bytes.Buffer
	_, err := GetInt64(bufioReader(""), "Amount", &out)
	assert.Error(t, err)
}

func TestGetSecret(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()

	readPassword = func(int) ([]byte, error) { return []byte(" tok \n"), nil }
	var out bytes.Buffer
	got, err := GetSecret(&out, "Token: ")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
	assert.Equal(t, "Token: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetSecret(&out, "Token: ")
	assert.Error(t, err)
}

func bufioReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}
