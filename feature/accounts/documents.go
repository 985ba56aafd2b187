package accounts

import "pns-snapshot/feature/ownership"

const queryAccounts = `query QueryAccounts($limit: Int!, $offset: Int!, $childLimit: Int!, $parent: String!) {
  accounts(limit: $limit, offset: $offset) {
    id
    domains(limit: $childLimit, where: {parent: {id_eq: $parent}}) {
      name
      createdAt
    }
  }
}`

const queryDomains = `query QueryDomains($id: String!, $limit: Int!, $offset: Int!, $parent: String!) {
  owner: accountById(id: $id) {
    domains(limit: $limit, offset: $offset, where: {parent: {id_eq: $parent}}) {
      name
      createdAt
    }
  }
}`

// Documents are the accounts family operations.
var Documents = ownership.Documents{
	AccountsOperation: "QueryAccounts",
	Accounts:          queryAccounts,
	DomainsOperation:  "QueryDomains",
	Domains:           queryDomains,
}
