// Command bufferctl is an interactive shell over a buffer.Manager,
// for poking at a single data file's pages by hand. It replaces the
// networked SQL REPL the original tool exposed with a local one: the
// buffer pool has no SQL layer above it here, so there is nothing for
// a client socket to talk to.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mich1498/Buffer-Manager/internal/buffer"
	"github.com/mich1498/Buffer-Manager/internal/diskfile"
	"github.com/mich1498/Buffer-Manager/internal/logging"
	"github.com/mich1498/Buffer-Manager/internal/page"
)

func main() {
	poolSize := flag.Int("pool-size", 16, "number of frames in the buffer pool")
	dbPath := flag.String("db", "bufferctl.db", "path to the backing data file")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
	verbose := flag.Bool("verbose", false, "use development (human-readable) logging")
	flag.Parse()

	log, err := logging.New(*verbose)
	if err != nil {
		fmt.Println("bufferctl: logger init failed:", err)
		return
	}
	defer log.Sync()

	var metrics *buffer.Metrics
	if *metricsAddr != "" {
		metrics = buffer.NewMetrics(prometheus.DefaultRegisterer, "bufferctl")
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			log.Info("serving metrics", zap.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	f, err := diskfile.Open(*dbPath)
	if err != nil {
		fmt.Println("bufferctl: open:", err)
		return
	}
	defer f.Close()

	mgr := buffer.New(*poolSize, log, metrics)
	defer mgr.Close()

	rl, err := readline.New("bufferctl> ")
	if err != nil {
		fmt.Println("bufferctl: readline:", err)
		return
	}
	defer rl.Close()

	fmt.Printf("bufferctl: %s, pool size %d. Type 'help' for commands.\n", *dbPath, *poolSize)

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		if !runCommand(mgr, f, strings.TrimSpace(line)) {
			return
		}
	}
}

// runCommand executes one line of input and reports whether the shell
// should keep reading ("quit"/"exit" return false).
func runCommand(mgr *buffer.Manager, f *diskfile.DiskFile, line string) bool {
	if line == "" {
		return true
	}
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		fmt.Println("commands: alloc | fetch <pageno> | unpin <pageno> [dirty] | flush | dispose <pageno> | stats | quit")

	case "alloc":
		p, err := mgr.AllocPage(f)
		if err != nil {
			fmt.Println("alloc failed:", err)
			return true
		}
		fmt.Printf("allocated page %d\n", p.ID())

	case "fetch":
		id, err := parsePageID(args)
		if err != nil {
			fmt.Println("usage: fetch <pageno>:", err)
			return true
		}
		p, err := mgr.ReadPage(f, id)
		if err != nil {
			fmt.Println("fetch failed:", err)
			return true
		}
		fmt.Printf("fetched page %d, first bytes: %q\n", p.ID(), firstBytes(p))

	case "unpin":
		if len(args) == 0 {
			fmt.Println("usage: unpin <pageno> [dirty]")
			return true
		}
		id, err := parsePageID(args[:1])
		if err != nil {
			fmt.Println("usage: unpin <pageno> [dirty]:", err)
			return true
		}
		dirty := len(args) > 1 && args[1] == "dirty"
		if err := mgr.UnpinPage(f, id, dirty); err != nil {
			fmt.Println("unpin failed:", err)
			return true
		}
		fmt.Println("ok")

	case "flush":
		if err := mgr.FlushFile(f); err != nil {
			fmt.Println("flush failed:", err)
			return true
		}
		fmt.Println("ok")

	case "dispose":
		id, err := parsePageID(args)
		if err != nil {
			fmt.Println("usage: dispose <pageno>:", err)
			return true
		}
		if err := mgr.DisposePage(f, id); err != nil {
			fmt.Println("dispose failed:", err)
			return true
		}
		fmt.Println("ok")

	case "stats":
		fmt.Print(mgr.PrintSelf())

	case "quit", "exit":
		fmt.Println("bye")
		return false

	default:
		fmt.Println("unknown command:", cmd)
	}

	return true
}

func parsePageID(args []string) (page.ID, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing page number")
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, err
	}
	return page.ID(n), nil
}

func firstBytes(p page.Page) string {
	n := 16
	if n > len(p.Data) {
		n = len(p.Data)
	}
	return string(p.Data[:n])
}
