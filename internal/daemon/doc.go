// Package daemon keeps a site in sync while running: one sync at startup,
// then on a cron schedule and (optionally) whenever watched pillar or lesson
// files change. Runs never overlap. Health and Prometheus endpoints are
// served over HTTP.
package daemon
