package jwtx_test

import "strings"

func segment(token string, i int) string { return strings.Split(token, ".")[i] }

func headerOf(token string) string    { return segment(token, 0) }
func payloadOf(token string) string   { return segment(token, 1) }
func signatureOf(token string) string { return segment(token, 2) }
