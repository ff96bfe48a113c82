// Package burst folds raw point events into wider incidents.
//
// Events are grouped by (source, type, key). Within a group, sorted by start
// time, an event whose start lies no more than the merge gap after the current
// aggregate's end extends that aggregate; otherwise the aggregate is sealed
// and a new one begins. Distinct details are joined with " | " until the
// accumulated text reaches maxDetailsLen characters.
//
// Groups are independent and fold in parallel. The combined result is sorted
// by start time, with source, type and key as tie-breakers so equal
// timestamps always come out in the same order.
package burst
