// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package recordpb converts normalized records to protobuf Struct messages and writes
// them as newline-separated JSON.
package recordpb

import (
	"io"

	"github.com/bufdev/ibreport/internal/pkg/ibkrrecord"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts a Record to a Struct.
//
// Numbers become number values, dates become YYYY-MM-DD strings, and null cells become
// null values.
func ToStruct(record ibkrrecord.Record) *structpb.Struct {
	values := record.Values()
	fields := make(map[string]*structpb.Value, len(values))
	for key, value := range values {
		fields[key] = ToValue(value)
	}
	return &structpb.Struct{Fields: fields}
}

// ToStructs converts Records to Structs.
func ToStructs(records []ibkrrecord.Record) []*structpb.Struct {
	structs := make([]*structpb.Struct, len(records))
	for i, record := range records {
		structs[i] = ToStruct(record)
	}
	return structs
}

// ToValue converts a Value to a structpb Value.
func ToValue(value ibkrrecord.Value) *structpb.Value {
	switch value.Kind() {
	case ibkrrecord.KindString:
		s, _ := value.Str()
		return structpb.NewStringValue(s)
	case ibkrrecord.KindNumber:
		number, _ := value.Number()
		return structpb.NewNumberValue(number.InexactFloat64())
	case ibkrrecord.KindDate:
		date, _ := value.Date()
		return structpb.NewStringValue(date.String())
	default:
		return structpb.NewNullValue()
	}
}

// WriteMessagesJSON writes multiple proto messages as newline-separated JSON.
func WriteMessagesJSON[M proto.Message](writer io.Writer, messages []M) error {
	for _, message := range messages {
		data, err := protojsonMarshal(message)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if _, err := writer.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecordsJSON writes Records as newline-separated JSON objects.
func WriteRecordsJSON(writer io.Writer, records []ibkrrecord.Record) error {
	return WriteMessagesJSON(writer, ToStructs(records))
}

// *** PRIVATE ***

// protojsonMarshal marshals a proto message to single-line JSON using proto field names.
func protojsonMarshal(message proto.Message) ([]byte, error) {
	return (protojson.MarshalOptions{UseProtoNames: true}).Marshal(message)
}
