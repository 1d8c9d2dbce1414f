package rooms

const TopicOrderChanged = "order.changed"

// Partition key = vendor_id, so all changes for one hostel keep their order.
func PartitionKey(vendorID string) []byte { return []byte(vendorID) }
