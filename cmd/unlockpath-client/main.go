// Command unlockpath-client sends one Plan request to an unlockpath-server.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
	"github.com/bayleafwalker/unlockpath/internal/rpc"
)

func main() {
	var target string
	var timeout time.Duration
	var listCaps bool
	flag.StringVar(&target, "target", "127.0.0.1:50051", "gRPC server address")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "call timeout")
	flag.BoolVar(&listCaps, "capabilities", false, "list the server's capabilities instead of planning")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", target, err)
		os.Exit(1)
	}
	defer conn.Close()

	c := rpc.NewClient(conn)

	if listCaps {
		resp, err := c.Capabilities(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Capabilities error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("catalog %s: %d providers\n", resp.Version, len(resp.Providers))
		for _, name := range resp.Capabilities {
			fmt.Println(name)
		}
		return
	}

	reqs, err := readRequests(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read requests: %v\n", err)
		os.Exit(1)
	}
	resp, err := c.Plan(ctx, rpc.PlanRequest{Requests: reqs})
	if err != nil {
		st := status.Convert(err)
		fmt.Fprintf(os.Stderr, "Plan error: code=%s message=%q\n", st.Code(), st.Message())
		os.Exit(1)
	}

	fmt.Printf("Plan ok: paths=%d combinations=%s evaluated=%d pruned=%d\n",
		len(resp.Paths), resp.Stats.Combinations, resp.Stats.Evaluated, resp.Stats.Pruned)
	for i, p := range resp.Paths {
		names := make([]string, 0, len(p.Steps))
		for _, s := range p.Steps {
			names = append(names, s.Provider)
		}
		fmt.Printf("  %d: %s\n", i+1, strings.Join(names, " -> "))
	}
}

// readRequests accepts the CLI line format without resolving names; the
// server reports unknown capabilities.
func readRequests(f *os.File) ([]unlockv1alpha1.CapabilityRequest, error) {
	var out []unlockv1alpha1.CapabilityRequest
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		var r unlockv1alpha1.CapabilityRequest
		if rest, ok := strings.CutPrefix(line, ">"); ok {
			r.Pinned = true
			line = strings.TrimSpace(rest)
		}
		q, name, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("malformed request %q", line)
		}
		n, err := strconv.Atoi(q)
		if err != nil {
			return nil, fmt.Errorf("malformed request %q: %w", line, err)
		}
		r.Quality = int32(n)
		r.Capability = strings.TrimSpace(name)
		out = append(out, r)
	}
	return out, sc.Err()
}
