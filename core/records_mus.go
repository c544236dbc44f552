package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Serializers for the persisted domain types, seeded from the cmd/musgen
// output and maintained by hand: the zero-aware micro-timestamp encoder and
// the whole-list segment serializer have no generator equivalent. Run
// cmd/musgen after changing a persisted struct and fold its output in here.
// Timestamps are encoded as Unix microseconds; the zero time is encoded
// as 0.

var (
	IDMUS             = idMUS{}
	DocStatusMUS      = docStatusMUS{}
	SegmentMUS        = segmentMUS{}
	SegmentsMUS       = segmentsMUS{}
	DocumentRecordMUS = documentRecordMUS{}
	ConversationMUS   = conversationMUS{}

	timeMicroMUS = timeMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	var u uint64
	u, n, err = varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type docStatusMUS struct{}

func (s docStatusMUS) Marshal(v DocStatus, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s docStatusMUS) Unmarshal(bs []byte) (v DocStatus, n int, err error) {
	var i int
	i, n, err = varint.Int.Unmarshal(bs)
	return DocStatus(i), n, err
}

func (s docStatusMUS) Size(v DocStatus) (size int) {
	return varint.Int.Size(int(v))
}

func (s docStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

type timeMUS struct{}

func (s timeMUS) Marshal(v time.Time, bs []byte) (n int) {
	var micro int64
	if !v.IsZero() {
		micro = v.UnixMicro()
	}
	return varint.Int64.Marshal(micro, bs)
}

func (s timeMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	var micro int64
	micro, n, err = varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	if micro != 0 {
		v = time.UnixMicro(micro).UTC()
	}
	return
}

func (s timeMUS) Size(v time.Time) (size int) {
	var micro int64
	if !v.IsZero() {
		micro = v.UnixMicro()
	}
	return varint.Int64.Size(micro)
}

func (s timeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

type segmentMUS struct{}

func (s segmentMUS) Marshal(v Segment, bs []byte) (n int) {
	n = IDMUS.Marshal(v.DocID, bs)
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int.Marshal(v.WordCount, bs[n:])
	return
}

func (s segmentMUS) Unmarshal(bs []byte) (v Segment, n int, err error) {
	var n1 int
	v.DocID, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Index, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.WordCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s segmentMUS) Size(v Segment) (size int) {
	size = IDMUS.Size(v.DocID)
	size += varint.Int.Size(v.Index)
	size += ord.String.Size(v.Text)
	size += varint.Int.Size(v.WordCount)
	return
}

func (s segmentMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type segmentsMUS struct{}

func (s segmentsMUS) Marshal(v []Segment, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for i := range v {
		n += SegmentMUS.Marshal(v[i], bs[n:])
	}
	return
}

func (s segmentsMUS) Unmarshal(bs []byte) (v []Segment, n int, err error) {
	var length, n1 int
	length, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = make([]Segment, 0, length)
	for i := 0; i < length; i++ {
		var segment Segment
		segment, n1, err = SegmentMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v = append(v, segment)
	}
	return
}

func (s segmentsMUS) Size(v []Segment) (size int) {
	size = varint.Int.Size(len(v))
	for i := range v {
		size += SegmentMUS.Size(v[i])
	}
	return
}

func (s segmentsMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type documentRecordMUS struct{}

func (s documentRecordMUS) Marshal(v DocumentRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.DocID, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += DocStatusMUS.Marshal(v.Status, bs[n:])
	n += ord.String.Marshal(v.Error, bs[n:])
	n += varint.Int.Marshal(v.Pages, bs[n:])
	n += varint.Int64.Marshal(v.SizeBytes, bs[n:])
	n += ord.String.Marshal(v.Mimetype, bs[n:])
	n += varint.Int.Marshal(v.SegmentsCount, bs[n:])
	n += timeMicroMUS.Marshal(v.IndexedAt, bs[n:])
	n += timeMicroMUS.Marshal(v.CreatedAt, bs[n:])
	n += timeMicroMUS.Marshal(v.UpdatedAt, bs[n:])
	return
}

func (s documentRecordMUS) Unmarshal(bs []byte) (v DocumentRecord, n int, err error) {
	var n1 int
	v.DocID, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status, n1, err = DocStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Error, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Pages, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SizeBytes, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Mimetype, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SegmentsCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.IndexedAt, n1, err = timeMicroMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = timeMicroMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMicroMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentRecordMUS) Size(v DocumentRecord) (size int) {
	size = IDMUS.Size(v.DocID)
	size += ord.String.Size(v.Name)
	size += DocStatusMUS.Size(v.Status)
	size += ord.String.Size(v.Error)
	size += varint.Int.Size(v.Pages)
	size += varint.Int64.Size(v.SizeBytes)
	size += ord.String.Size(v.Mimetype)
	size += varint.Int.Size(v.SegmentsCount)
	size += timeMicroMUS.Size(v.IndexedAt)
	size += timeMicroMUS.Size(v.CreatedAt)
	size += timeMicroMUS.Size(v.UpdatedAt)
	return
}

func (s documentRecordMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type conversationMUS struct{}

func (s conversationMUS) Marshal(v Conversation, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += timeMicroMUS.Marshal(v.CreatedAt, bs[n:])
	n += varint.Int.Marshal(len(v.Records), bs[n:])
	for i := range v.Records {
		n += DocumentRecordMUS.Marshal(*v.Records[i], bs[n:])
	}
	return
}

func (s conversationMUS) Unmarshal(bs []byte) (v Conversation, n int, err error) {
	var n1 int
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = timeMicroMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Records = make([]*DocumentRecord, 0, length)
	for i := 0; i < length; i++ {
		var record DocumentRecord
		record, n1, err = DocumentRecordMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v.Records = append(v.Records, &record)
	}
	return
}

func (s conversationMUS) Size(v Conversation) (size int) {
	size = ord.String.Size(v.ID)
	size += timeMicroMUS.Size(v.CreatedAt)
	size += varint.Int.Size(len(v.Records))
	for i := range v.Records {
		size += DocumentRecordMUS.Size(*v.Records[i])
	}
	return
}

func (s conversationMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
