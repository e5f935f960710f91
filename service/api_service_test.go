package service

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/davinci-node/db/metadb"

	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc/curves"
	"github.com/Web3StudyGroup/SecretPlatform/fhe"
	"github.com/Web3StudyGroup/SecretPlatform/storage"
)

func TestAPIService(t *testing.T) {
	c := qt.New(t)

	// Setup storage and coprocessor
	database := metadb.NewTest(t)
	stg, err := storage.New(database)
	c.Assert(err, qt.IsNil)
	co, err := fhe.New(database, curves.CurveTypeBN254, uint64(1)<<16)
	c.Assert(err, qt.IsNil)

	// Create API service with a random available port
	apiService := NewAPI(stg, co, nil, "127.0.0.1", 0) // Port 0 lets the OS choose an available port

	// Start service in background
	ctx := context.Background()

	err = apiService.Start(ctx)
	c.Assert(err, qt.IsNil)

	// Give the service time to start
	time.Sleep(time.Second)

	// Test starting an already running service
	err = apiService.Start(ctx)
	c.Assert(err, qt.ErrorMatches, "service already running")
}
