// Command driver_compare checks that two portal deployments backed by different
// data or storage drivers serve the same catalog. It walks the course list of the
// reference deployment and compares every course detail against the candidate.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// volatileMeta lists envelope meta keys that differ between runs.
var volatileMeta = []string{"processing_time_ms"}

type comparison struct {
	Path              string
	ReferenceStatus   int
	CandidateStatus   int
	StatusMatch       bool
	BodyMatch         bool
	Error             error
	ReferenceDuration time.Duration
	CandidateDuration time.Duration
}

type courseRef struct {
	ID int64 `json:"id"`
}

func main() {
	var (
		referenceBase string
		candidateBase string
		apiPrefix     string
		timeout       time.Duration
	)

	flag.StringVar(&referenceBase, "reference", "http://localhost:8080", "Reference deployment base URL")
	flag.StringVar(&candidateBase, "candidate", "http://localhost:8081", "Candidate deployment base URL")
	flag.StringVar(&apiPrefix, "api-prefix", "/api/v1", "JSON API prefix")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	client := resty.New().SetTimeout(timeout)
	prefix := "/" + strings.Trim(apiPrefix, "/")

	list := compareTarget(client, referenceBase, candidateBase, prefix+"/courses")
	results := []comparison{list}
	if list.Error == nil {
		ids, err := fetchCourseIDs(client, referenceBase, prefix)
		if err != nil {
			log.Fatalf("failed to list reference courses: %v", err)
		}
		for _, path := range detailPaths(prefix, ids) {
			results = append(results, compareTarget(client, referenceBase, candidateBase, path))
		}
	}

	printReport(results)

	diffs := countDiffs(results)
	fmt.Printf("Diffs: %d of %d targets\n", diffs, len(results))
	if diffs > 0 {
		os.Exit(1)
	}
}

func fetchCourseIDs(client *resty.Client, base, prefix string) ([]int64, error) {
	var envelope struct {
		Data []courseRef `json:"data"`
	}
	resp, err := client.R().Get(strings.TrimRight(base, "/") + prefix + "/courses")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode course list: %w", err)
	}
	ids := make([]int64, 0, len(envelope.Data))
	for _, c := range envelope.Data {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func detailPaths(prefix string, ids []int64) []string {
	paths := make([]string, 0, len(ids))
	for _, id := range ids {
		paths = append(paths, fmt.Sprintf("%s/courses/%d", prefix, id))
	}
	return paths
}

func compareTarget(client *resty.Client, referenceBase, candidateBase, path string) comparison {
	comp := comparison{Path: path}

	ref, err := client.R().Get(strings.TrimRight(referenceBase, "/") + path)
	if err != nil {
		comp.Error = fmt.Errorf("reference request failed: %w", err)
		return comp
	}
	cand, err := client.R().Get(strings.TrimRight(candidateBase, "/") + path)
	if err != nil {
		comp.Error = fmt.Errorf("candidate request failed: %w", err)
		return comp
	}

	comp.ReferenceStatus = ref.StatusCode()
	comp.CandidateStatus = cand.StatusCode()
	comp.ReferenceDuration = ref.Time()
	comp.CandidateDuration = cand.Time()
	comp.StatusMatch = comp.ReferenceStatus == comp.CandidateStatus
	comp.BodyMatch = bodiesEqual(ref.Body(), cand.Body())
	return comp
}

// bodiesEqual compares two envelopes after dropping volatile meta fields.
func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj map[string]interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	stripVolatile(aj)
	stripVolatile(bj)
	return reflect.DeepEqual(aj, bj)
}

func stripVolatile(envelope map[string]interface{}) {
	meta, ok := envelope["meta"].(map[string]interface{})
	if !ok {
		return
	}
	for _, key := range volatileMeta {
		delete(meta, key)
	}
	if len(meta) == 0 {
		delete(envelope, "meta")
	}
}

func countDiffs(results []comparison) int {
	diffs := 0
	for _, res := range results {
		if res.Error != nil || !res.StatusMatch || !res.BodyMatch {
			diffs++
		}
	}
	return diffs
}

func printReport(results []comparison) {
	fmt.Println("Driver Compare Report")
	fmt.Println("=====================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] GET %s\n", status, res.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Reference: %d (%s) | Candidate: %d (%s)\n", res.ReferenceStatus, res.ReferenceDuration, res.CandidateStatus, res.CandidateDuration)
		fmt.Printf("  Status match: %t | Body match: %t\n", res.StatusMatch, res.BodyMatch)
	}
}
