// Package models defines client-side data models used by the Promptify CLI.
package models
