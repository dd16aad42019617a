// Package shutdown provides graceful shutdown handling.
//
// A Handler waits for SIGINT or SIGTERM, then runs registered hooks in
// reverse order under a bounded context. Servers register their
// Shutdown methods as hooks so the process drains before exiting.
package shutdown
