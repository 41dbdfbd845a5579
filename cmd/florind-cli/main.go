// florind-cli sends a single JSON-RPC command to a running florind node and
// prints the result.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ordishs/gocore"

	"github.com/florin-chain/florind/services/rpc"
	"github.com/florin-chain/florind/services/rpc/flnjson"
)

func main() {
	rpcURL := flag.String("rpcurl", "", "node RPC address (default from rpc_listener_url)")
	rpcUser := flag.String("rpcuser", "", "RPC username (default from rpc_user)")
	rpcPass := flag.String("rpcpass", "", "RPC password (default from rpc_pass)")
	named := flag.Bool("named", false, "pass arguments as name=value pairs")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: florind-cli [options] <method> [params...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	method := args[0]
	tokens := args[1:]

	var (
		params json.RawMessage
		err    error
	)

	if *named {
		params, err = rpc.ConvertCliNamedArgs(method, tokens)
	} else {
		params, err = rpc.ConvertCliArgs(method, tokens)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *rpcURL == "" {
		addr, _ := gocore.Config().Get("rpc_listener_url")
		if addr == "" {
			addr = "localhost:9332"
		}

		*rpcURL = "http://" + addr + "/"
	}

	if *rpcUser == "" {
		*rpcUser, _ = gocore.Config().Get("rpc_user")
	}

	if *rpcPass == "" {
		*rpcPass, _ = gocore.Config().Get("rpc_pass")
	}

	body, err := json.Marshal(&flnjson.Request{
		Jsonrpc: "1.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, *rpcURL, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	req.SetBasicAuth(*rpcUser, *rpcPass)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading response: %v\n", err)
		os.Exit(1)
	}

	var reply flnjson.Response
	if err := json.Unmarshal(payload, &reply); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s returned %q\n", *rpcURL, payload)
		os.Exit(1)
	}

	if reply.Error != nil {
		fmt.Fprintf(os.Stderr, "error: %s (code %d)\n", reply.Error.Message, reply.Error.Code)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, reply.Result, "", "  "); err != nil {
		fmt.Println(string(reply.Result))
		return
	}

	fmt.Println(pretty.String())
}
