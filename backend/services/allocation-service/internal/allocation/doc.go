/*
Package allocation partitions building units between the Developer and the
housing authority (AAHDC).

The Engine validates a batch of unallocated units, groups them by block and
runs one distribution method per block. It never touches storage: callers
receive a Result with the owner decided for every unit and persist it
themselves. The Checker measures the authority's share of each block's
total gross area against the configured target and tolerance.
*/
package allocation
