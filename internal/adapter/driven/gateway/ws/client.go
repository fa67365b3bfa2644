package ws

import "github.com/Wyydra/confbridge/internal/core/port"

// Client is re-exported so adapters only import this package.
type Client = port.Client
