// Command vcsvgen writes a synthetic CSV fixture to stdout or a file, for
// feeding vcsvbench via its -file flag. Grounded on
// entreya-csvquery/scripts/gen_100m.go's row-generation loop, generalised
// with flags for row count, field count, quoting density, and newline
// style instead of that script's fixed shape and hardcoded row count.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
)

func main() {
	rows := flag.Int("rows", 1_000_000, "number of data rows to generate")
	fields := flag.Int("fields", 4, "number of fields per row")
	quotedPct := flag.Int("quoted-pct", 10, "percentage of fields wrapped in quotes")
	crlf := flag.Bool("crlf", false, "use CRLF row terminators instead of LF")
	out := flag.String("out", "", "output file path (default: stdout)")
	seed := flag.Int64("seed", 1, "PRNG seed, for reproducible fixtures")
	flag.Parse()

	w, closeFn := openOutput(*out)
	defer closeFn()
	bw := bufio.NewWriterSize(w, 64*1024)

	terminator := "\n"
	if *crlf {
		terminator = "\r\n"
	}

	rng := rand.New(rand.NewSource(*seed))
	writeHeader(bw, *fields, terminator)
	for r := 0; r < *rows; r++ {
		writeRow(bw, rng, r, *fields, *quotedPct, terminator)
	}
	if err := bw.Flush(); err != nil {
		log.Fatalf("vcsvgen: flush: %v", err)
	}
}

func openOutput(path string) (*os.File, func()) {
	if path == "" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("vcsvgen: %v", err)
	}
	return f, func() { f.Close() }
}

func writeHeader(w *bufio.Writer, fields int, terminator string) {
	for i := 0; i < fields; i++ {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString("field")
		w.WriteString(strconv.Itoa(i))
	}
	w.WriteString(terminator)
}

func writeRow(w *bufio.Writer, rng *rand.Rand, row, fields, quotedPct int, terminator string) {
	for i := 0; i < fields; i++ {
		if i > 0 {
			w.WriteByte(',')
		}
		value := fmt.Sprintf("r%d-c%d-%d", row, i, rng.Intn(100000))
		if rng.Intn(100) < quotedPct {
			w.WriteByte('"')
			w.WriteString(value)
			if rng.Intn(4) == 0 {
				w.WriteString(", with a comma and a \"\"doubled\"\" quote")
			}
			w.WriteByte('"')
		} else {
			w.WriteString(value)
		}
	}
	w.WriteString(terminator)
}
