package beats

import (
	"net"
	"sync"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

type OutModule struct {
	address     string
	dialTimeout time.Duration
	sendTimeout time.Duration
	conn        net.Conn
	client      *lumberjack.SyncClient // nil until connected
	mutex       sync.Mutex
}
