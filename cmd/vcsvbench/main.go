// Command vcsvbench reports the CPU features detected by both of this
// module's independent feature-detection libraries and runs a throughput
// microbenchmark of ParseDirect and ParseParallel over a generated or
// supplied CSV file. Grounded on nnnkkk7-go-simdcsv/benchmark_test.go's
// benchmark harness (generate-then-time-a-parse shape) and on
// entreya-csvquery/go/cmd/benchmark/main.go's generate-a-fixture-then-run
// CLI structure.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"

	"github.com/vectorcsv/vectorcsv"
)

func main() {
	path := flag.String("file", "", "CSV file to benchmark (default: generate one in memory)")
	rows := flag.Int("rows", 200_000, "rows to generate when -file is not given")
	parallel := flag.Bool("parallel", false, "use ParseParallel instead of ParseDirect")
	flag.Parse()

	reportFeatures()

	input := loadOrGenerate(*path, *rows)
	fmt.Printf("input: %d bytes\n", len(input))

	cfg := vectorcsv.NewConfig(',', '"')
	start := time.Now()
	var n int
	var err error
	if *parallel {
		n, err = runParallel(input, cfg)
	} else {
		n, err = runDirect(input, cfg)
	}
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("vcsvbench: parse: %v", err)
	}

	mbPerSec := float64(len(input)) / (1024 * 1024) / elapsed.Seconds()
	fmt.Printf("rows parsed: %d\n", n)
	fmt.Printf("elapsed:     %v\n", elapsed)
	fmt.Printf("throughput:  %.2f MB/s\n", mbPerSec)
}

func reportFeatures() {
	fmt.Println("x/sys/cpu:    AVX2=", cpu.X86.HasAVX2, " AVX512F=", cpu.X86.HasAVX512F)
	fmt.Println("cpuid/v2:     AVX2=", cpuid.CPU.Supports(cpuid.AVX2), " AVX512F=", cpuid.CPU.Supports(cpuid.AVX512F))
}

func runDirect(input []byte, cfg vectorcsv.Config) (int, error) {
	rows, err := vectorcsv.ParseDirect(input, cfg)
	return len(rows), err
}

func runParallel(input []byte, cfg vectorcsv.Config) (int, error) {
	rows, err := vectorcsv.ParseParallel(input, cfg)
	return len(rows), err
}

func loadOrGenerate(path string, rows int) []byte {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("vcsvbench: %v", err)
		}
		return data
	}
	return generate(rows)
}

// generate produces a synthetic fixture in memory -- a header plus rows of
// id, code, value, and an always-quoted description -- for a self-contained
// benchmark run with no file arguments.
func generate(rows int) []byte {
	rng := rand.New(rand.NewSource(1))
	out := make([]byte, 0, rows*40)
	out = append(out, "id,code,value,description\n"...)
	for i := 0; i < rows; i++ {
		out = append(out, fmt.Sprintf("%d,US-%d,%d,\"Description for item %d\"\n", i, rng.Intn(1000), rng.Intn(10000), i)...)
	}
	return out
}
