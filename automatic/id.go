// a fast unique time-based ID algorithm from the mongo mgo driver
package automatic

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"
)

// batchIdCounter is atomically incremented for every new batch ID. It's
// the counter part of the id.
var batchIdCounter uint32 = 0

// machineId stores the machine id, generated once and used in every
// subsequent batch ID.
var machineId [3]byte

func init() {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	sum := md5.Sum([]byte(hostname))
	copy(machineId[:], sum[:3])
}

// newBatchID returns a new unique 24-character hex batch ID: timestamp,
// machine, pid and counter, like a Mongo ObjectId. IDs sort by creation
// second.
func newBatchID() string {
	b := make([]byte, 12)
	// Timestamp, 4 bytes, big endian
	binary.BigEndian.PutUint32(b, uint32(time.Now().Unix()))
	// Machine, first 3 bytes of md5(hostname)
	copy(b[4:7], machineId[:])
	// Pid, 2 bytes, big endian
	pid := os.Getpid()
	b[7] = byte(pid >> 8)
	b[8] = byte(pid)
	// Increment, 3 bytes, big endian
	i := atomic.AddUint32(&batchIdCounter, 1)
	b[9] = byte(i >> 16)
	b[10] = byte(i >> 8)
	b[11] = byte(i)
	return hex.EncodeToString(b)
}
