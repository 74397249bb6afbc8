package tools

import (
	"net/http"

	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

func messageOperations(d Defaults) []pending {
	return []pending{
		{
			schema.NewOperation("create-message", "Create Message", "Create a new message in a ticket").
				Param(d.parentID("Complex ID containing the ticket")).
				Param(schema.String("ticketId").Require().Describe("Ticket ID to add message to")).
				Param(schema.String("comment").Require().Describe("Message content")).
				Param(schema.String("userId").Describe("User ID of message author")).
				Param(schema.String("type").Describe("Message type")).
				Param(d.token()),
			registry.TransportDescriptor{
				URI:        d.endpoint("/createMessage"),
				Method:     http.MethodPost,
				BodyParams: []string{"parentId", "ticketId", "comment", "userId", "type"},
			},
		},
		{
			schema.NewOperation("get-messages", "Get Messages", "Fetch all messages from a specific ticket").
				Param(d.parentID("Complex ID containing the ticket")).
				Param(schema.String("ticketId").Require().Describe("Ticket ID to fetch messages from")).
				Param(d.token()),
			registry.TransportDescriptor{
				URI:         d.endpoint("/getMessages"),
				Method:      http.MethodGet,
				QueryParams: []string{"parentId", "ticketId"},
			},
		},
		{
			schema.NewOperation("delete-message", "Delete Message", "Delete a message from a ticket").
				Param(d.parentID("Complex ID containing the ticket")).
				Param(schema.String("ticketId").Require().Describe("Ticket ID containing the message")).
				Param(schema.String("messageId").Require().Describe("Message ID to delete")).
				Param(d.token()),
			registry.TransportDescriptor{
				URI:         d.endpoint("/deleteMessage"),
				Method:      http.MethodDelete,
				QueryParams: []string{"parentId", "ticketId", "messageId"},
			},
		},
	}
}
