// Package main hosts the mediasort CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once per invocation, builds the
// logger, tagging client, and history store, and hands a profile to the
// workflow runner. Commands stay thin: the pipeline itself lives in
// internal/workflow and the components it drives.
package main
