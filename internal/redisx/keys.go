package redisx

const ns = "officeq:v1"

func ChannelQueueEvents() string {
	return ns + ":queue:events"
}
