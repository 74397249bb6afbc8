package tools

import (
	"net/http"

	"github.com/bobmcallan/ticket-mcp/internal/registry"
	"github.com/bobmcallan/ticket-mcp/internal/schema"
)

func ticketOperations(d Defaults) []pending {
	return []pending{
		{
			schema.NewOperation("get-tickets", "Get Tickets",
				"Fetch all tickets for a complex with optional filtering and pagination").
				Param(d.parentID("Complex ID to fetch tickets from")).
				Param(schema.Number("limit").Between(1, 100).WithDefault(10).Describe("Number of tickets to return")).
				Param(schema.Enum("status", TicketStatuses...).Describe("Filter by ticket status")).
				Param(schema.Enum("priority", TicketPriorities...).Describe("Filter by ticket priority")).
				Param(schema.Boolean("isArchive").Describe("Filter by archive status")).
				Param(schema.String("assetId").Describe("Filter by asset ID")).
				Param(schema.String("userId").Describe("Filter by user ID")).
				Param(schema.String("lastDocumentId").Describe("ID of the last ticket on the previous page")).
				Param(d.token()),
			registry.TransportDescriptor{
				URI:         d.endpoint("/getTickets"),
				Method:      http.MethodGet,
				QueryParams: []string{"parentId", "limit", "status", "priority", "isArchive", "assetId", "userId", "lastDocumentId"},
			},
		},
		{
			schema.NewOperation("get-ticket-by-id", "Get Ticket By ID", "Fetch a specific ticket by its ID").
				Param(d.parentID("Complex ID containing the ticket")).
				Param(schema.String("ticketId").Require().Describe("Specific ticket ID to fetch")).
				Param(d.token()),
			registry.TransportDescriptor{
				URI:         d.endpoint("/getTicketById"),
				Method:      http.MethodGet,
				QueryParams: []string{"parentId", "ticketId"},
			},
		},
		{
			schema.NewOperation("create-ticket", "Create Ticket", "Create a new ticket").
				Param(d.parentID("Complex ID to create ticket in")).
				Param(schema.String("title").Require().Describe("Ticket title")).
				Param(schema.String("description").Require().Describe("Ticket description")).
				Param(schema.Enum("status", TicketStatuses...).Describe("Ticket status")).
				Param(schema.Enum("priority", TicketPriorities...).Describe("Ticket priority")).
				Param(schema.String("assetId").Describe("Associated asset ID")).
				Param(schema.String("userId").Describe("Assigned user ID")).
				Param(d.token()),
			registry.TransportDescriptor{
				URI:        d.endpoint("/createTicket"),
				Method:     http.MethodPost,
				BodyParams: []string{"parentId", "title", "description", "status", "priority", "assetId", "userId"},
			},
		},
		{
			schema.NewOperation("update-ticket", "Update Ticket", "Update an existing ticket").
				Param(d.parentID("Complex ID containing the ticket")).
				Param(schema.String("ticketId").Require().Describe("Ticket ID to update")).
				Param(schema.String("title").Describe("Updated ticket title")).
				Param(schema.String("description").Describe("Updated description")).
				Param(schema.Enum("status", TicketStatuses...).Describe("Ticket status")).
				Param(schema.Enum("priority", TicketPriorities...).Describe("Ticket priority")).
				Param(schema.String("assetId").Describe("Updated asset ID")).
				Param(schema.String("userId").Describe("Updated assigned user ID")).
				Param(d.token()),
			registry.TransportDescriptor{
				URI:        d.endpoint("/updateTicket"),
				Method:     http.MethodPut,
				BodyParams: []string{"parentId", "ticketId", "title", "description", "status", "priority", "assetId", "userId"},
			},
		},
		{
			schema.NewOperation("delete-ticket", "Delete Ticket", "Delete a ticket").
				Param(d.parentID("Complex ID containing the ticket")).
				Param(schema.String("ticketId").Require().Describe("Ticket ID to delete")).
				Param(d.token()),
			registry.TransportDescriptor{
				URI:         d.endpoint("/deleteTicket"),
				Method:      http.MethodDelete,
				QueryParams: []string{"parentId", "ticketId"},
			},
		},
		{
			schema.NewOperation("get-ticket-count", "Get Ticket Count", "Get the count of tickets with optional filtering").
				Param(d.parentID("Complex ID to count tickets from")).
				Param(schema.Enum("status", TicketStatuses...).Describe("Filter by ticket status")).
				Param(schema.Boolean("isArchive").Describe("Filter by archive status")).
				Param(d.token()),
			registry.TransportDescriptor{
				URI:         d.endpoint("/getTicketCount"),
				Method:      http.MethodGet,
				QueryParams: []string{"parentId", "status", "isArchive"},
			},
		},
	}
}
