/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of Model, stored as a protobuf message
under the key "<bucket name>:<key>". Sequences live next to the buckets and
generate monotonic identifiers.
*/
package orm
