/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Registration and session errors. These are surfaced to the offending
// connection only, never broadcast, and none of them is fatal to the process.
var (
	errBadSecret    = errors.New("invalid admin secret")
	errGameStarted  = errors.New("the game has already started")
	errInvalidName  = errors.New("a name is required")
	errNameTaken    = errors.New("that name is already taken")
	errNoPlayers    = errors.New("at least one player must join first")
	errNotActive    = errors.New("no game is in progress")
	errRoomFull     = errors.New("the room is full")
	errRoomNotFound = errors.New("room not found")
	errUnauthorized = errors.New("only the host may do that")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
