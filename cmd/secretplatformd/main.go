package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/vocdoni/davinci-node/db"
	"github.com/vocdoni/davinci-node/db/metadb"
	"go.vocdoni.io/dvote/log"

	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc/curves"
	"github.com/Web3StudyGroup/SecretPlatform/fhe"
	"github.com/Web3StudyGroup/SecretPlatform/service"
	"github.com/Web3StudyGroup/SecretPlatform/storage"
	"github.com/Web3StudyGroup/SecretPlatform/types"
)

func main() {
	dataDir := flag.String("dataDir", "./secretplatform-data", "directory for the database")
	dbType := flag.String("dbType", db.TypePebble, "database type (pebble or goleveldb)")
	host := flag.String("host", "0.0.0.0", "API host")
	port := flag.Int("port", 8080, "API port")
	curve := flag.String("curve", curves.CurveTypeBN254, "elliptic curve backend (bn254 or bjj)")
	maxMessage := flag.Uint64("maxMessage", fhe.DefaultMaxMessage, "plaintext domain bound for encrypted amounts")
	logLevel := flag.String("logLevel", "info", "log level (debug, info, warn, error)")

	flag.Parse()
	log.Init(*logLevel, "stdout", nil)

	database, err := metadb.New(*dbType, *dataDir)
	if err != nil {
		log.Fatal(err)
	}

	stg, err := storage.New(database)
	if err != nil {
		log.Fatal(err)
	}

	co, err := fhe.New(database, *curve, *maxMessage)
	if err != nil {
		log.Fatal(err)
	}

	api := service.NewAPI(stg, co, eventLogger{}, *host, *port)
	ctx := context.Background()
	if err := api.Start(ctx); err != nil {
		log.Fatal(err)
	}
	log.Infow("secret platform started", "dataDir", *dataDir, "curve", *curve)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	api.Stop()
}

// eventLogger writes every ledger event to the log. Events carry
// identities only, so logging them leaks no amounts.
type eventLogger struct{}

func (eventLogger) Notify(e types.Event) {
	log.Infow("ledger event", "kind", string(e.Kind), "from", e.From.Hex(), "to", e.To.Hex())
}
