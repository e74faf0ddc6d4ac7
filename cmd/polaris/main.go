// Polaris is a catalog-driven insurance quoting service.
//
// All product knowledge lives in a declarative JSON catalog: screens,
// fields, dictionaries, visibility rules, computed fields, and pricing
// rules with their expressions. The binary serves the quoting API over
// that catalog and ships small offline tools for working with it.
//
// Usage:
//
//	# Start the API server with the default configuration
//	polaris run
//
//	# Start with a custom configuration file
//	polaris run --config /etc/polaris/config.yaml
//
//	# Price a set of answers from a file without starting the server
//	polaris quote --answers answers.json
//
//	# Check every expression in a catalog for dialect violations
//	polaris lint --catalog catalog/schema.json
//
//	# Show version information
//	polaris version
package main

func main() {
	Execute()
}
