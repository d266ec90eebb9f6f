/*
Package gatetest provides mocks and helpers for testing gatekeeper
extensions and the application.

Helpers are meant to be used only in tests.
*/
package gatetest
