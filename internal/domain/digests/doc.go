// Package digests defines the services and request models for computing message digests
// through native stream chains and for running the known-answer self tests.

package digests
