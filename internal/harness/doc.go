// Package harness runs end-to-end depth scenarios against the real pipeline.
//
// A scenario loads a CSV into a fresh in-memory database, serves GET requests
// through the production mux and checks responses, range query results, the
// loaded table and archived plots.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	csv: |
//	  depth,c0,c1
//	  100,1,2
//	  trailer
//	width: 2
//	requests:
//	  - get: "/?depth_min=100&depth_max=200"
//	    expect:
//	      content_type: image/png
//	      rows: 1
//	assertions:
//	  - type: range
//	    depth_min: 100
//	    depth_max: 200
//	    depths: [100]
//	  - type: table
//	    rows: 1
//
// # Assertion Types
//
//   - range: queries the store directly and compares depths (and samples if given)
//   - table: checks row count, width and depth bounds of the loaded table
//   - response_count: counts responses with a given content type
//   - archived: counts plots written to the archive
//
// # Deterministic Testing
//
// Plot names come from testutil.SequenceNames and every request and range
// query is recorded in a trace with a logical sequence number, so the same
// scenario always produces the same trace for golden comparison.
package harness
