// Package main provides the tcpgate entry point.
//
// tcpgate is a TCP/TLS front server with per-hostname credential
// selection. The serve command runs the server, check validates a
// configuration file, and version prints build information.
package main
