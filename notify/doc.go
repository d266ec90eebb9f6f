/*
Package notify contains the event sinks the engine publishes to.

Publishing never fails the operation that raised the event. Sinks that
cannot deliver an event log the problem and move on.
*/
package notify
