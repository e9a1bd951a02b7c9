package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// client posts one hex frame to a node's /decode endpoint and prints the
// decoded view.
func main() {
	apiAddr := flag.String("api", "http://localhost:8080", "node API base URL")
	flag.Parse()

	frame := strings.Join(flag.Args(), "")
	if frame == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to read frame from stdin")
		}
		frame = string(data)
	}

	resp, err := http.Post(*apiAddr+"/decode", "text/plain", strings.NewReader(frame))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to reach node API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to read response")
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		out.Reset()
		out.Write(body)
	}
	fmt.Println(out.String())

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
