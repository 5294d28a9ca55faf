// Package timeouts defines shared timeout constants used across storefront.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers and consumers wait for in-flight work
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StoreConnect caps the wait when pinging a database, Redis or Kafka at startup.
const StoreConnect = 5 * time.Second

// PollInterval is the default delay between empty subscription polls.
const PollInterval = 500 * time.Millisecond
