package newaccounts

import "pns-snapshot/feature/ownership"

const queryAccounts = `query QueryAccounts($limit: Int!, $offset: Int!, $childLimit: Int!, $parent: String!) {
  accounts(first: $limit, skip: $offset) {
    id
    domains(first: $childLimit, where: {parent: $parent}) {
      name
      createdAt
    }
  }
}`

const queryDomains = `query QueryDomains($id: ID!, $limit: Int!, $offset: Int!, $parent: String!) {
  owner: account(id: $id) {
    domains(first: $limit, skip: $offset, where: {parent: $parent}) {
      name
      createdAt
    }
  }
}`

// Documents are the new-accounts family operations.
var Documents = ownership.Documents{
	AccountsOperation: "QueryAccounts",
	Accounts:          queryAccounts,
	DomainsOperation:  "QueryDomains",
	Domains:           queryDomains,
}
