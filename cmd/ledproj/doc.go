// Command ledproj is the CLI for creating, inspecting, converting, and
// cataloging LED matrix pattern projects.
package main
